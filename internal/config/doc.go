// Package config provides the settings a scaffolding run uses.
//
// Settings start from built-in defaults (the Next.js + Supabase starter, pnpm,
// the stock setup commands). An optional YAML file passed with --config and a
// few NEXTBASE_* environment variables can override them. The scaffolder never
// looks for a settings file on its own.
//
// # Settings File Structure
//
//	template: github:Mohamed-4rarh/next-supabase-starter
//	packageManager: pnpm
//	commitMessage: Initial commit
//	outputTail: 20
//	features:
//	  storage: [lib/storage.ts, app/api/upload/route.ts]
//	commands:
//	  install: ["pnpm install --frozen-lockfile"]
//
// # Environment Overrides
//
//	NEXTBASE_TEMPLATE          template source
//	NEXTBASE_PACKAGE_MANAGER   pnpm, npm, yarn or bun
//	NEXTBASE_INSTALL_CMD       replaces the install command line
//	NEXTBASE_COMMIT_MESSAGE    message of the initial commit
//
// # Usage
//
//	settings, err := config.Load(path, os.LookupEnv)
//	if err != nil {
//	    return err
//	}
//	steps, err := setup.Plan(cfg, settings)
package config
