// Package qrsclient provides the primary entry point for constructing a
// repository service client that implements the qrs.Client interface.
//
// It layers configuration, transport, and authentication on top of the
// resource interfaces and types defined in the qrs package. Most applications
// should import qrsclient to build a client, then use the returned qrs.Client
// to access resource-specific repositories, for example Apps(), Streams(),
// Users().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/senseops-io/qrs-client/pkg/qrs"
//	  "github.com/senseops-io/qrs-client/pkg/qrsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With the certificate pair exported by the platform. The private key
//	  // is expected next to the certificate as client_key.pem.
//	  cli, err := qrsclient.New(&qrs.Config{
//	    Host:        "qs.example.com",
//	    Certificate: "/etc/qlik/certs/client.pem",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with Windows domain credentials through the platform proxy:
//	  cli, err = qrsclient.New(&qrs.Config{
//	    Host:     "qs.example.com",
//	    Domain:   "QLIK",
//	    Username: "svc-admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  apps, err := cli.Apps().List(ctx, qrs.NewQueryParams().WithFilter(qrs.FilterByName("Sales")))
//	  if err != nil { log.Fatal(err) }
//	  _ = apps
//	}
//
// # Helpers
//
// The package also provides the convenience constructors NewWithCertificate
// and NewWithCredentials that wrap New with the appropriate configuration,
// and a Service type with name-oriented operations (GetAppByName,
// ReloadAppByName, PublishAppByName) for callers that think in display names
// rather than GUIDs.
package qrsclient
