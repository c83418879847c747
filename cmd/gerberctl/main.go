package main

import (
	cmd "github.com/pcbtools/rs274x/cmd/gerberctl/cmd"
)

var GitSHA string = "NA"

func main() {
	cmd.NewRoot(GitSHA).Execute()
}
