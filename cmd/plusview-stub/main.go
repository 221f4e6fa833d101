// Command plusview-stub runs a local fixture server speaking the
// collection API in either of its two shapes, for development against
// a known dataset.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/mbegonja/plusview/internal/stub"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	paginate := flag.Bool("paginate", false, "serve the paginated envelope instead of a bare array")
	newsCount := flag.Int("news", 25, "number of seeded news records")
	flag.Parse()

	srv := stub.New(*paginate)
	srv.Seed("projects", stub.SampleProjects())
	srv.Seed("news", stub.SampleNews(*newsCount))

	mode := "bare-array"
	if *paginate {
		mode = "envelope"
	}
	log.Printf("plusview-stub listening on %s (%s mode, %d news records)", *addr, mode, *newsCount)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
