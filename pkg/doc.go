// Package pkg provides the libraries behind steamvent, a planner for opening
// pressure-release valves in a network of tunnels before a time budget runs
// out.
//
// # Overview
//
// A network is a set of valves, each with a flow rate, joined by tunnels.
// Walking a tunnel takes one minute and so does opening a valve. An open
// valve releases its flow rate every remaining minute. The libraries find
// the opening order that releases the most pressure in total.
//
// # Architecture
//
//	text or JSON input
//	         ↓
//	    [io] (parse into a network)
//	         ↓
//	    [network] (validated valves and tunnels)
//	         ↓
//	    [network/distance] (all-pairs travel times, filtered to useful valves)
//	         ↓
//	    [search] (generation-by-generation expansion, best and top-k plans)
//	         ↓
//	    [render/nodelink] (DOT, SVG, PNG with the route drawn in)
//
// [pipeline] runs these stages with caching ([cache]) and reports progress
// through [observability] hooks. The CLI and the HTTP API both go through
// pipeline.Runner.
//
// # Quick Start
//
//	n, _ := io.ImportFile("input.txt")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, n, pipeline.Options{Budget: 30})
//	fmt.Println(res.Pressure, res)
//
// # Supporting Packages
//
//   - [errors]: coded errors shared by CLI and API, plus input validation
//   - [config]: the TOML configuration file
//   - [observability/prom]: Prometheus implementations of the hooks
//   - [buildinfo]: version information set at build time
//
// [io]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/io
// [network]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/network
// [network/distance]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/network/distance
// [search]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/search
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/config
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/steamvent/pkg/buildinfo
package pkg
