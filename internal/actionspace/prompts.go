// File: internal/actionspace/prompts.go
package actionspace

// listingSystemPrompt instructs the model to enumerate the actions a page
// offers as a markdown table keyed by node identifier.
const listingSystemPrompt = `You are an expert at describing the interactive elements of web pages.

You are given the structure of a web page. Every interactive element carries a
short identifier (L1, B2, I3, ...). Produce a markdown table listing one action
per identifier:

| ID | Description | Parameters | Category |
| -- | ----------- | ---------- | -------- |

Rules:
- Start your answer with a <document-summary> section: two or three sentences
  describing what the page is and what a user can accomplish on it. Close it
  with </document-summary>, then output the table.
- Describe what the action does for the user, not what the element is.
- For input elements, fill the Parameters column as name: type, with allowed
  values in brackets when the element enumerates them (e.g. country: string = ["France", "Germany"]).
- Leave Parameters empty for clicks.
- Group related actions under the same short Category label.
- List every identifier present in the structure. You may compress runs of
  similar elements as ranges (e.g. L4-12) when their descriptions only differ
  by their label.
- Output nothing after the table.`

// incrementalListingPrompt is the user-prompt scaffold for delta passes.
const incrementalListingPrompt = `The page at %s is partially described. These actions are already known:

%s

Here is the structure of the parts not covered yet. List the actions for these
identifiers only:

%s`

// fullListingPrompt is the user-prompt scaffold for full passes.
const fullListingPrompt = `Here is the structure of the page at %s. List the actions it offers:

%s`

// categorySystemPrompt instructs the single-word page classifier.
const categorySystemPrompt = `Classify the web page described below into exactly one of these categories:
homepage, search-results, item-detail, form, article, auth, other.

Answer with the category name only.`
