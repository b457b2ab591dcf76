package main

import (
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/cmd/abfallkalender/commands"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
