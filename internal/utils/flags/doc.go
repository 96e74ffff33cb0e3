// Package flags provides pflag values shared by the landed command line.
package flags
