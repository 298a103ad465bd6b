package main

import "github.com/MUKAPP/bilibili-danmaku-report/cmd"

func main() {
	cmd.Execute()
}
