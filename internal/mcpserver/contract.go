package mcpserver

// FilenameConvention describes how component documentation files must be
// named so that uploads are accepted and listed under the expected name.
const FilenameConvention = `# Component Filename Convention

Every component document is a single Markdown file named:

` + "```" + `
<component_name>-<version>.md
` + "```" + `

## Rules

1. **Extension** is exactly ` + "`" + `.md` + "`" + ` (lowercase).
2. **At least one hyphen** must appear before the extension. Everything after
   the last hyphen is the version, everything before it is the upload name.
3. **No directories.** Path separators and ` + "`" + `..` + "`" + ` are rejected.
4. **Encoding** is UTF-8.
5. **No overwrites.** Uploading a filename that already exists fails; publish a
   new version under a new filename instead.

## Listing name

The catalog lists a file under the text before its **first** hyphen. A file
named ` + "`" + `Date-Picker-2.0.md` + "`" + ` is uploaded as ` + "`" + `Date-Picker` + "`" + ` but listed and
looked up as ` + "`" + `Date` + "`" + `. Prefer single-word names such as
` + "`" + `DatePicker-2.0.md` + "`" + `.

When two files share a listing name, one of them is served and the others are
hidden; keep one version per component in the directory.

## Examples

| Filename | Listed as | Version |
|---|---|---|
| ` + "`" + `Button-3.4.2.md` + "`" + ` | Button | 3.4.2 |
| ` + "`" + `Card-1.0.md` + "`" + ` | Card | 1.0 |
| ` + "`" + `Modal-v2.md` + "`" + ` | Modal | v2 |
`
