package source

import (
	recval "github.com/recval/recval"
	drvgojson "github.com/recval/recval/source/gojson"
)

// init in a separate package to avoid import cycle in root. Importing this
// package sets go-json as the default driver.
func init() { recval.SetJSONDriver(drvgojson.Driver()) }
