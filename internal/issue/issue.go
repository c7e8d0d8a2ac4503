// SPDX-License-Identifier: MPL-2.0

package issue

import "github.com/charmbracelet/glamour"

const (
	BlueprintNotFoundId Id = iota + 1
	BlueprintParseErrorId
	BlueprintExistsId
	EnvFileUnreadableId
	ConfigLoadFailedId
	InvalidFormatId
)

type (
	// Id identifies a catalog entry.
	Id int

	MarkdownMsg string

	// Issue is a catalog entry: Markdown guidance for one class of problem.
	Issue struct {
		id    Id          // ID used to lookup the issue
		mdMsg MarkdownMsg // Markdown text that will be rendered
	}
)

var (
	render = glamour.Render

	blueprintNotFoundIssue = &Issue{
		id: BlueprintNotFoundId,
		mdMsg: `
# No blueprint found!

envcheck needs a blueprint that declares the keys your project requires.
By default it looks for ` + "`env.spec`" + ` in the current directory.

## Things you can try:
- Create a starter blueprint:
~~~
$ envcheck init
~~~

- Or derive one from an existing env file:
~~~
$ envcheck init --from .env
~~~

- Or point to a blueprint elsewhere:
~~~
$ envcheck --spec config/env.spec
~~~`,
	}

	blueprintParseErrorIssue = &Issue{
		id: BlueprintParseErrorId,
		mdMsg: `
# Failed to parse the blueprint!

Every non-comment line of a blueprint declares one key, optionally with a type
and a trailing doc comment.

## Blueprint syntax:
~~~
# Comments start with '#'
DATABASE_URL            # untyped keys are strings
SERVICE_PORT: integer   # listening port
RATE_LIMIT: float
DEBUG_MODE: boolean
~~~

## Common mistakes:
- Key names must start with a letter or underscore and contain only letters, digits and underscores
- Valid types are string, integer, float and boolean
- A key may only be declared once`,
	}

	blueprintExistsIssue = &Issue{
		id: BlueprintExistsId,
		mdMsg: `
# Blueprint already exists!

envcheck will not overwrite an existing blueprint.

## Things you can try:
- Overwrite it explicitly:
~~~
$ envcheck init --force
~~~

- Or write the new blueprint somewhere else:
~~~
$ envcheck init --spec other.spec
~~~`,
	}

	envFileUnreadableIssue = &Issue{
		id: EnvFileUnreadableId,
		mdMsg: `
# Could not read the env file!

A missing env file is fine, but one that exists and cannot be read is not.

## Things you can try:
- Check the file permissions
- Make sure the path is a regular file and not a directory
- Skip the file and check the process environment only:
~~~
$ envcheck --no-env-file
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The envcheck configuration file could not be loaded.

## Things you can try:
- Check the CUE syntax of your config file
- Show where envcheck looks for it:
~~~
$ envcheck config path
~~~

- Write a fresh default config:
~~~
$ envcheck config init
~~~

## Example config:
~~~cue
blueprint: "env.spec"
env_file:  ".env"
format:    "text"
ui: {
	verbose: false
	color:   "auto"
}
~~~`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown report format!

## Supported formats:
- ` + "`text`" + ` (default, human readable)
- ` + "`json`" + `
- ` + "`yaml`" + `
- ` + "`toml`",
	}

	issues = map[Id]*Issue{
		blueprintNotFoundIssue.Id():   blueprintNotFoundIssue,
		blueprintParseErrorIssue.Id(): blueprintParseErrorIssue,
		blueprintExistsIssue.Id():     blueprintExistsIssue,
		envFileUnreadableIssue.Id():   envFileUnreadableIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidFormatIssue.Id():       invalidFormatIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the entry with glamour using the given style
// ("dark", "light", "notty", "auto" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

func Get(id Id) *Issue {
	return issues[id]
}
