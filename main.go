package main

import (
	"github.com/nasdex/indexer/cmd/nasindex"
)

func main() {
	nasindex.Execute()
}
