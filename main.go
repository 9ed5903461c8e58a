package main

import "github.com/Altinn/altinn-authorization-tmp-sub012/cmd"

func main() {
	cmd.Execute()
}
