// Package pbclient provides the primary entry point for constructing a
// Productboard API client that implements the productboard.Client interface.
//
// It layers configuration, the HTTP dispatcher, authentication, rate
// governance, and diagnostics on top of the resource interfaces and types
// defined in the productboard package. Most applications should import
// pbclient to build a client, then use the returned productboard.Client to
// access resource-specific clients, for example Features(), Notes(),
// Releases(), etc., or the gated Execute entry point.
//
// Quick start
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
//
//	  // With an access token you already have:
//	  cli, err := pbclient.New(ctx, &productboard.Config{
//	    AccessToken: "eyJhbGciOi...", // bearer token
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with OAuth2 client credentials. When credentials are provided
//	  // and no token URL is set, pbclient derives it from the API endpoint.
//	  cli, err = pbclient.New(ctx, &productboard.Config{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the productboard.Client interface
//	  features, err := cli.Features().List(ctx, productboard.NewQueryParams().WithPageLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = features
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithToken, and NewWithClientCredentials that wrap New with the
// appropriate configuration.
package pbclient
