// Package prebuilt ships ready-made vertex-centric computations together
// with the schema and message delivery strategy they expect, plus a registry
// for looking them up by name.
package prebuilt
