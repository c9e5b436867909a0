// main is the entry point for the ahp CLI.
package main

import (
	"github.com/huangsam/ahp/cmd"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/persist"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal; variables then come from the environment.
	_ = godotenv.Load()

	err := cmd.Execute()
	if stopErr := cmd.Shutdown(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	persist.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
