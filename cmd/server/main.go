package main

import "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/app/server"

func main() {
	server.Run()
}
