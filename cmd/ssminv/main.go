package main

import (
	"github.com/NVIDIA/ssm-inventory/pkg/cli"
)

func main() {
	cli.Execute()
}
