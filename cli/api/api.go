package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"golang.org/x/time/rate"

	"github.com/oaiiae/contacts-provider/datastores"
	"github.com/oaiiae/contacts-provider/handlers"
	"github.com/oaiiae/contacts-provider/router"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"8888"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix"                      default:""`
	RateLimit       int    `doc:"max requests per second on endpoints, 0 disables" default:"0"`
	RateBurst       int    `doc:"requests allowed to exceed the rate limit"        default:"50"`
}

// Pinger is implemented by stores able to report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	options *RouterOptions,
	title string,
	version string,
	revision string,
	created string,
	logger *slog.Logger,
	contacts datastores.ContactsStore,
) http.Handler {
	buildinfoMetric := fmt.Sprintf("build_info{goversion=%q,title=%q,version=%q,revision=%q,created=%q} 1\n",
		runtime.Version(), title, version, revision, created)
	metriks := metrics.NewSet()

	middlewares := []middleware{
		requestLogger(logger),
		meterRequests(metriks),
		recoverPanics(logger, metriks),
	}
	if options.RateLimit > 0 {
		middlewares = append(middlewares,
			limitRequests(rate.NewLimiter(rate.Limit(options.RateLimit), options.RateBurst), metriks))
	}

	return router.New(title, version,
		readiness(contacts, logger),
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		router.OptUseMiddleware(middlewares...),
		router.OptGroup(options.EndpointsPrefix,
			router.OptGroup("/contacts", router.OptAutoRegister(&handlers.Contacts{
				Store:        contacts,
				ErrorHandler: storeErrorLogger(logger),
			})),
		),
	)
}

// readiness returns a handler answering [http.StatusServiceUnavailable]
// while store implements [Pinger] and fails to ping.
func readiness(store datastores.ContactsStore, logger *slog.Logger) http.HandlerFunc {
	pinger, ok := store.(Pinger)
	if !ok {
		return func(http.ResponseWriter, *http.Request) {}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		err := pinger.Ping(r.Context())
		if err != nil {
			logger.LogAttrs(r.Context(), slog.LevelWarn, "store not ready", slog.Any("err", err))
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

