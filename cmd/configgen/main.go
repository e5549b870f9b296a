package main

import (
	"flag"
	"log"
	"os"

	"github.com/danmuck/binpath/internal/config"
)

const defaultPath = "cmd/pathd/config.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	show := flag.Bool("show", false, "print the effective config after defaults are applied")
	input := flag.String("input", defaultPath, "config path for -validate and -show")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate || *show {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		if *show {
			if err := config.Dump(os.Stdout, cfg); err != nil {
				log.Fatal(err)
			}
			return
		}
		log.Printf("Validated config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
