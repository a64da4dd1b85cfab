// @title Skill Portal API
// @version 1.0
// @description 技能测评平台后端服务。

// @host localhost:4000
// @BasePath /api

package main

//go:generate swag init -g main.go -o docs

import (
	"fmt"
	"os"

	"skill_portal_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
