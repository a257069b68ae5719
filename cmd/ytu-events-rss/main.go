package main

import "github.com/pfrederiksen/ytu-events-rss/internal/cli"

func main() {
	cli.Execute()
}
