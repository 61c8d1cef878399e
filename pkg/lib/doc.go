// Package lib provides a Go SDK for driving supervised stack deployments
// programmatically.
//
// This package allows applications to deploy, update and preview
// infrastructure stacks without shelling out to the stackctl CLI binary.
//
// # Quick Start
//
// Create a client and run a deploy:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Deploy(ctx, lib.DeployConfig{
//	    BaseName: "billing-api",
//	    DeployID: "20260830",
//	    Template: lib.TemplateSource{Raw: "https://templates.example.com/billing.json"},
//	    OnFailure: lib.OnFailureDelete,
//	    DeletePriorInstances: true,
//	    OnEvent: func(ev lib.StackEvent) {
//	        fmt.Println(ev.LogicalResourceID, ev.ResourceStatus)
//	    },
//	})
//
// # Providers
//
// The SDK supports two provider types:
//
//   - [ProviderAWS]: real AWS CloudFormation stacks, credentials resolved from
//     the default AWS chain.
//   - [ProviderFake]: in-memory simulation for unit testing. No cloud access
//     needed. Set [Config].Provider to [ProviderFake] to use it.
//
// # Concurrency
//
// Each Client owns its own provider handle; create one Client per target
// account/region and run them concurrently without interference.
package lib
