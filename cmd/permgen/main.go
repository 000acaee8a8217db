// Command permgen inspects and compiles shader permutations.
//
// Usage:
//
//	permgen options --family particle
//	permgen macros --select albedo=Constant_Color --stage Albedo
//	permgen params --key 0102000000000000000000
//	permgen compile --templates shaders --select albedo=Constant_Color --stage Albedo
//	permgen batch --config permgen.toml
//	permgen watch --config permgen.toml
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
