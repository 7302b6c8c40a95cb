// Package config loads packs.json, the per-project configuration for fingerprinted
// asset lookup.
//
// The file holds one section per environment plus an optional "default" section.
// The selected environment's fields are layered over "default", which is layered
// over the built-in defaults. Compile on demand is off unless a section sets
// "compile": true, and then "compileCommand" is required:
//
//	{
//	  "default": {
//	    "sourcePath": "app/javascript",
//	    "publicRootPath": "public",
//	    "publicOutputPath": "packs",
//	    "cachePath": "tmp/cache/packs",
//	    "compileCommand": ["npx", "webpack", "--config", "webpack.config.js"],
//	    "devServer": {"host": "localhost", "port": 3035}
//	  },
//	  "development": {
//	    "compile": true
//	  },
//	  "production": {
//	    "compile": false,
//	    "cacheManifest": true,
//	    "assetHost": "https://cdn.example.com"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".", config.ResolveEnv(""))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Manifest:", cfg.DefaultManifestPath())
package config
