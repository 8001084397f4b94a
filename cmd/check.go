package cmd

import (
	"fmt"
	"log"

	"github.com/tomhuettmann/fuel-consumption/internal/site"
)

func Check(outputDir string) error {
	broken, err := site.CheckLinks(outputDir)
	if err != nil {
		return err
	}
	for _, link := range broken {
		log.Printf("broken link: %s", link)
	}
	if len(broken) > 0 {
		return fmt.Errorf("found %d broken links in %s", len(broken), outputDir)
	}
	return nil
}
