// Package report extracts concentrations, fluxes and optimization results
// from the tab-separated reports CopasiSE writes.
package report
