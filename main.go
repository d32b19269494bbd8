// LazyBuild is a terminal UI for browsing Xcode build settings.
// It lists the targets of the projects open in Xcode, their build
// configurations and the resolved build settings of each.
//
// Usage:
//
//	lazybuild [command] [flags]
//
// Configuration is loaded from ~/.lazybuild/config.yaml
package main

import (
	"fmt"
	"os"

	"github.com/marjoballabani/lazybuild/cmd"
	"github.com/marjoballabani/lazybuild/pkg/app"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
)

// Build information, set via ldflags during compilation:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse HEAD)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	buildInfo := &app.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	if err := cmd.Execute(buildInfo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := xcode.HintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
