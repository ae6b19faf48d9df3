package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"

	_ "warehouse/gridnav/docs"
	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/grid"
	"warehouse/gridnav/pkg/kv"
	"warehouse/gridnav/pkg/server/rest"
	"warehouse/gridnav/pkg/server/rest/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr   = flag.String("listenaddr", ":5000", "server listen address")
	layoutFile   = flag.String("f", "warehouse_layouts.json", "json file with named floor layouts")
	activeLayout = flag.String("layout", "default", "layout name to activate at startup")
)

//	@title			gridnav API
//	@version		1.0
//	@description	warehouse grid routing engine in go

//	@description	shortest route queries on a warehouse floor grid, robots and walls avoided

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	db, err := pebble.Open("gridnavDB", &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	if layouts, err := readLayoutFile(*layoutFile); err == nil {
		kvDB.SeedLayouts(layouts)
	} else {
		log.Printf("layout file %s not loaded: %v", *layoutFile, err)
	}

	floor, err := activeFloor(kvDB, *activeLayout)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"),
	))

	navigatorSvc := service.NewNavigationService(floor, kvDB)
	rest.NavigatorRouter(r, navigatorSvc, m)

	log.Printf("server started at %s", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

// readLayoutFile parses a json file mapping layout names to floor layouts.
func readLayoutFile(path string) (map[string]datastructure.FloorLayout, error) {
	bb, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	layouts := map[string]datastructure.FloorLayout{}
	if err := json.Unmarshal(bb, &layouts); err != nil {
		return nil, err
	}
	return layouts, nil
}

// activeFloor loads the startup layout from the kv store, falling back to
// an empty 64x64 floor when nothing is stored under that name.
func activeFloor(kvDB *kv.KVDB, name string) (*grid.Floor, error) {
	layout, err := kvDB.GetLayout(name)
	if err != nil {
		log.Printf("layout %s not in store, starting with an empty 64x64 floor", name)
		return grid.NewFloor(64, 64), nil
	}
	return grid.NewFloorFromLayout(layout)
}
