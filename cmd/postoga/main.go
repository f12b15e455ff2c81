// cmd/postoga/main.go
package main

import (
	"postoga/internal/app"
	"postoga/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
