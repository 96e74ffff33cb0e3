// Package cli constructs the landed command-line interface, wiring the Cobra
// root command to the configuration loader, the structured logger and the
// verbose diagnostic console.
package cli
