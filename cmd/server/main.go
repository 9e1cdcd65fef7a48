package main // Entry point package

import "github.com/iliyamo/restaurant-table-reservation/internal/cli"

func main() {
	cli.Execute()
}
