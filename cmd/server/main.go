package main

import "github.com/nguyentranbao-ct/sale-sailor/cmd"

func main() {
	cmd.Execute()
}
