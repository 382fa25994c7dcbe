// Package main reposync repository synchronization API
//
//	@title			reposync API
//	@version		1.0.0
//	@description	reposync keeps opened git repositories refreshed and fetches their remotes
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:3000
//	@BasePath		/api/v1
package main

import "github.com/apiarycd/reposync/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
