package main

import "github.com/podiumhq/podium/internal/report"

func main() {
	report.Execute()
}
