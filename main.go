package main

import (
	"fmt"
	"os"

	"fjacquet/dispute-assist/cmd/classify"
	"fjacquet/dispute-assist/cmd/pipeline"
	"fjacquet/dispute-assist/cmd/query"
	"fjacquet/dispute-assist/cmd/resolve"
	"fjacquet/dispute-assist/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(resolve.Cmd)
	root.Cmd.AddCommand(pipeline.Cmd)
	root.Cmd.AddCommand(query.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
