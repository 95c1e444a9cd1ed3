// Package config loads reactor.json, the configuration file shared by the
// reactor command's subcommands.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "renderer": {
//	    "keyedDiff": true,
//	    "pretty": false,
//	    "tracerName": "reactor"
//	  },
//	  "preview": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "title": "reactor preview"
//	  },
//	  "snapshot": {
//	    "backend": "s3",
//	    "bucket": "my-snapshots",
//	    "prefix": "renders/",
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "reactor"
//	  }
//	}
//
// Missing sections and fields take the values of Default. Command-line
// flags override file values.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, err := cfg.Log.Logger(os.Stderr)
package config
