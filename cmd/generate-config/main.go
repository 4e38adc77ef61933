package main

import (
	"os"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/config"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := yaml.NewEncoder(os.Stdout).Encode(config.DefaultConfig()); err != nil {
		panic(err)
	}
}
