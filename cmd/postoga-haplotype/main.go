// cmd/postoga-haplotype/main.go
package main

import (
	"postoga/internal/appshell"
	"postoga/internal/haploapp"
)

func main() {
	appshell.Main(haploapp.RunContext)
}
