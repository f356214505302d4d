package mcpserver

// TemplateFormatContract describes the on-disk template format and the
// title keying rules that LLM consumers should understand before
// registering or updating templates.
const TemplateFormatContract = `# Blueprint Template Format Contract

Every template is stored as one Markdown file with a YAML metadata preamble.

## Structure

` + "```" + `markdown
---
title: Human-readable unique title   # the identifier used by every tool
description: One-line summary        # optional, defaults to ""
owner: alice                         # optional, defaults per front-end
created_at: "2025-01-20T09:30:00Z"   # RFC 3339, managed by the server
updated_at: "2025-01-20T09:30:00Z"   # RFC 3339, managed by the server
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **The title is the identifier.** Every tool addresses a template by its
   title; there are no separate IDs or paths.
2. **Titles map to storage keys.** The server lower-cases the title,
   replaces whitespace and punctuation with underscores, and truncates to
   100 characters. Two different titles that sanitize identically refer to
   the same template — registering the second one fails as already existing.
3. **Timestamps are server-managed.** Do not supply created_at/updated_at;
   they are set on create and refreshed on every update.
4. **Updates are partial.** Only the fields you pass to update_template
   change; the title itself is immutable after creation.
5. **Encoding** is UTF-8.

## Example

` + "```" + `markdown
---
title: Release checklist
description: Steps to cut a release
owner: ai_assistant
created_at: "2025-01-20T09:30:00Z"
updated_at: "2025-02-02T17:12:45Z"
---

1. Freeze the branch.
2. Run the full test suite.
3. Tag and publish.
` + "```" + `
`
