// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the declwire command line interface.
//
// Every command receives an *App, the composition root holding the config
// provider and the output writers. Commands load configuration, discover
// catalogs, run a fresh resolver over them and render the result; none of
// them keep state between invocations.
package cmd
