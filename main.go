package main

import "github.com/metpro/casechat/cmd"

func main() {
	cmd.Execute()
}
