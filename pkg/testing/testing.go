package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the repo root so tests resolve relative paths (logs dir,
	// fixtures) the same way the server does. Import for side effect:
	//
	//   _ "garagemon.xyz/govee-monitor-service/pkg/testing"

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
