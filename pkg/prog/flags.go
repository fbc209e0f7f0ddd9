package prog

import "flag"

// FlagSet wraps a [flag.FlagSet] to provide methods to register flags shared
// by multiple subprograms.
type FlagSet struct {
	*flag.FlagSet
	json *bool
	db   *string
}

// JSON returns a pointer to the value of the -json flag, registering it when
// called for the first time.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -compileonly, -version or evaluation in JSON")
		fs.json = &json
	}
	return fs.json
}

// DB returns a pointer to the value of the -db flag, registering it when
// called for the first time.
func (fs *FlagSet) DB() *string {
	if fs.db == nil {
		var db string
		fs.StringVar(&db, "db", "",
			"Path to the history database; defaults to a file in the user config directory when interactive")
		fs.db = &db
	}
	return fs.db
}
