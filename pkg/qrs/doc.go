// Package qrs provides types, interfaces, and helpers for working with the
// Qlik Sense Repository Service (QRS) administrative API.
//
// # Overview
//
// The qrs package defines the domain types (App, Stream, User,
// CustomPropertyDefinition, Tag) in condensed and full attribution, the
// repository interfaces over them, the Session contract that hides the two
// transport-security models (client certificate and domain credentials), and
// the UnitOfWork change tracker. A concrete implementation is provided by the
// qrsclient package, which wires configuration, transport, and
// authentication. Most consumers should import qrsclient to construct a
// client and then interact with the repository interfaces exposed here.
//
// Getting a client
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
//	  cli, err := qrsclient.New(&qrs.Config{
//	    Host:        "qs.example.com",
//	    Certificate: "/etc/qlik/certs/client.pem",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  apps, err := cli.Apps().List(ctx, qrs.NewQueryParams().WithFilter(qrs.FilterByName("Sales")))
//	  if err != nil { log.Fatal(err) }
//	  _ = apps
//	}
//
// # Batched changes
//
// UnitOfWork defers mutations until an explicit Commit and tolerates partial
// failure: inspect the CommitResult, correct the failed items, and Commit
// again.
//
//	uow := cli.UnitOfWork()
//	_ = uow.RegisterNew(cli.Streams(), &qrs.Stream{StreamCondensed: qrs.StreamCondensed{Name: "Finance"}})
//	result, err := uow.Commit(ctx)
//
// # Errors
//
// Failures are represented by typed errors (AuthError, TransportError,
// NotFoundError, ConflictError, ValidationError, TimeoutError). Helpers such
// as IsNotFound, IsConflict, and IsTimeout make it easy to branch on common
// cases; IsRemoteValidation distinguishes "sent and rejected" from "never
// sent".
package qrs
