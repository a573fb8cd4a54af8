// Package cli provides the interactive Recipe Keeper command-line client.
//
// It wires configuration, the local credential database, the HTTP API
// client and the session and recipe services behind a small REPL. On start
// the stored credential is resolved into a signed-in user; a background
// watcher pings the server and shows online/offline in the prompt.
//
// Commands:
//   - register / login / logout / whoami / prefs
//   - list [search] / mine / favorites / show <id>
//   - fav <id> / rate <id> <1-5> / delete <id>
//   - swap <id> <ingredient> for personalized substitutions
//   - generate to draft a recipe from ingredients on hand
//
// Each recipe shown is kept as a card; later commands on the same id act on
// that card until it is shown again. See App, runREPL and
// StartOnlineStatusWatcher for details.
package cli
