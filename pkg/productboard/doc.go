// Package productboard provides types, interfaces, and helpers for working
// with the Productboard REST API.
//
// # Overview
//
// The productboard package defines the domain types (e.g., Feature, Note,
// Release, Objective) and the interfaces for resource-oriented clients
// (e.g., FeaturesClient, NotesClient). A concrete implementation of these
// clients is provided by the pbclient package, which wires configuration,
// transport, authentication, rate limiting, and retries. Most consumers
// should import pbclient to construct a client and then interact with the
// resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/copyhacker/productboard-mcp/pkg/pbclient"
//	  "github.com/copyhacker/productboard-mcp/pkg/productboard"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := pbclient.NewWithToken(ctx, "https://api.productboard.com", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of features
//	  features, err := cli.Features().List(ctx, productboard.NewQueryParams().WithPageLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = features
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (pageLimit, pageCursor,
// filters). The package also provides helpers for iterating or collecting
// paginated results:
//
//	it := productboard.NewPageIterator(ctx, cli, "/features", productboard.NewQueryParams())
//	for it.HasNext() {
//	  item, err := it.Next()
//	  if err != nil { break }
//	  _ = item
//	}
//
// or fetch every page at once:
//
//	all, err := cli.CollectAll(ctx, "/features", nil)
//	if err != nil { /* handle error */ }
//	_ = all
//
// Aggregation walks cursors when the service supplies them and falls back to
// offset-based paging otherwise, bounded by a page ceiling so a stuck cursor
// cannot loop forever.
//
// # Errors
//
// Service errors are represented by APIError, which classifies every failure
// into a closed ErrorKind taxonomy. Helpers such as IsNotFound,
// IsRateLimited, and IsPermissionDenied make it easy to branch on common
// cases. Retries are driven entirely by the error kind: network failures,
// server errors, and rate limits retry under exponential backoff, everything
// else fails fast.
//
// # Operations and permissions
//
// Beyond the typed resource clients, the registry exposes a name-keyed
// operation catalog gated by caller permissions. Execute resolves an
// operation, checks the caller's access level and capability set, validates
// parameters, and only then dispatches. BatchExecutor runs heterogeneous
// operation sequences strictly in order with per-operation failure
// isolation.
//
// # Diagnostics
//
// The dispatcher mirrors request lifecycle events to an optional
// EventPublisher (log- or NATS-backed) and aggregates counters into
// RequestMetrics, available from the client via Metrics().
package productboard
