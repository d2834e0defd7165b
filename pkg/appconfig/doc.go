// Package appconfig manages the per-app app.config.json files and app groups
// kept next to the exported design files.
//
// Layout:
//
//	design/
//	  app-groups.json
//	  apps/<app>/app.config.json
//	  apps/<app>/dev/*.json
//	  apps/<app>/prod/*.json
package appconfig
