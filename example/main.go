// Compiles a file and prints its output followed by the reflection data of
// every class it declares.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jymfony/scriba/pkg/api"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: example <file>")
		os.Exit(2)
	}

	s := api.NewServices(api.ServicesOptions{Deterministic: true})
	results, err := s.CompileFiles(os.Args[1:2], api.CompileOptions{Namespace: "Example"}, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(results[os.Args[1]])

	for _, id := range s.ReflectionIDs() {
		data, _ := s.GetReflectionData(id)
		text, _ := json.MarshalIndent(data, "", "  ")
		fmt.Printf("%s: %s\n", id, text)
	}
}
