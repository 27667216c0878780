// internal/interface/rest/router.go
package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parceltrack-service/pkg/metrics"
)

// Handlers bundles everything the router wires together.
type Handlers struct {
	Users     *UserHandler
	Parcels   *ParcelHandler
	Payments  *PaymentHandler
	Riders    *RiderHandler
	Trackings *TrackingHandler
}

// NewRouter builds the full HTTP surface. Routes carry no logic of
// their own; auth guards wrap the handlers that need them.
func NewRouter(h Handlers, guard *Guard, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))

	token := guard.VerifyToken
	admin := func(next http.HandlerFunc) http.Handler { return token(guard.VerifyAdmin(next)) }
	rider := func(next http.HandlerFunc) http.Handler { return token(guard.VerifyRider(next)) }

	// users
	r.HandleFunc("/users", h.Users.Create).Methods(http.MethodPost)
	r.Handle("/users/search", admin(h.Users.Search)).Methods(http.MethodGet)
	r.Handle("/users/{email}/role", token(http.HandlerFunc(h.Users.GetRole))).Methods(http.MethodGet)
	r.Handle("/users/{id}/role", admin(h.Users.UpdateRole)).Methods(http.MethodPatch)

	// parcels; the static delivery path registers before the {id} routes
	r.Handle("/parcels/delivery/status-count", admin(h.Parcels.StatusCount)).Methods(http.MethodGet)
	r.Handle("/parcels", token(http.HandlerFunc(h.Parcels.List))).Methods(http.MethodGet)
	r.HandleFunc("/parcels", h.Parcels.Create).Methods(http.MethodPost)
	r.HandleFunc("/parcels/{id}", h.Parcels.Get).Methods(http.MethodGet)
	r.Handle("/parcels/{id}", token(http.HandlerFunc(h.Parcels.Delete))).Methods(http.MethodDelete)
	r.Handle("/parcels/{id}/assign", admin(h.Parcels.Assign)).Methods(http.MethodPatch)
	r.Handle("/parcels/{id}/status", rider(h.Parcels.UpdateStatus)).Methods(http.MethodPatch)
	r.Handle("/parcels/{id}/cashout", rider(h.Parcels.Cashout)).Methods(http.MethodPatch)

	// payments
	r.Handle("/payments/create-intent", token(http.HandlerFunc(h.Payments.CreateIntent))).Methods(http.MethodPost)
	r.Handle("/payments", token(http.HandlerFunc(h.Payments.Record))).Methods(http.MethodPost)
	r.Handle("/payments", token(http.HandlerFunc(h.Payments.History))).Methods(http.MethodGet)

	// riders
	r.HandleFunc("/riders", h.Riders.Create).Methods(http.MethodPost)
	r.Handle("/riders/pending", admin(h.Riders.Pending)).Methods(http.MethodGet)
	r.Handle("/riders/approved", admin(h.Riders.Approved)).Methods(http.MethodGet)
	r.Handle("/riders/available", admin(h.Riders.Available)).Methods(http.MethodGet)
	r.Handle("/riders/parcels", rider(h.Riders.Tasks)).Methods(http.MethodGet)
	r.Handle("/riders/completed-parcels", rider(h.Riders.Completed)).Methods(http.MethodGet)
	r.Handle("/riders/{id}", admin(h.Riders.Decide)).Methods(http.MethodPatch)

	// trackings
	r.Handle("/trackings", token(http.HandlerFunc(h.Trackings.Append))).Methods(http.MethodPost)
	r.HandleFunc("/trackings/{trackingId}", h.Trackings.History).Methods(http.MethodGet)

	// ops
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	}).Methods(http.MethodGet)

	return r
}
