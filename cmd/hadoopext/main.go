package main

import "github.com/contriboss/hadoop-extension-go/cmd/hadoopext/internal"

func main() {
	internal.Execute()
}
