// SPDX-License-Identifier: MPL-2.0

// Package catalog parses type catalogs: CUE (*.catalog.cue) or YAML
// (*.catalog.yaml, *.catalog.yml) files describing the candidate types of
// one binary and their registration intents.
//
//	name: "payments"
//	types: [{
//		id:        "payments.StripeGateway"
//		base:      "payments.BaseGateway"
//		contracts: ["payments.Gateway"]
//		register: [{lifetime: "singleton", contracts: ["payments.Gateway"]}]
//		list: [{contracts: ["payments.Plugin"], remove_subtypes: true}]
//		environments: ["Production"]
//	}]
//
// Files are validated against the embedded #Catalog schema, then converted
// into typeinfo.CandidateType values in declaration order.
package catalog
