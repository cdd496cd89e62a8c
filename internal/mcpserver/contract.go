package mcpserver

// SourceFormatContract describes the canonical LaTeX source layout that
// note authors (human or LLM) must follow for the pipeline to publish
// their notes.
const SourceFormatContract = `# Muninn Source Note Contract

Every LaTeX note published by Muninn MUST follow this layout.

## Location

` + "```" + `
<staging>/<topic>/<course>/<name>.tex
` + "```" + `

At least three path segments under the staging root: the first is the
topic, the second the course, the last the source file. The published
page lands under the site's output directory at
` + "`" + `<topic>/<course>/<slug>.qmd` + "`" + `.

## Header

` + "```" + `latex
% title: Human-readable title      % OPTIONAL - falls back to the file name
% date: 2024-03-01                 % OPTIONAL - ISO date (YYYY-MM-DD)
% tags: calculus, limits           % OPTIONAL - comma-separated

\section{Body starts here}
` + "```" + `

Header lines are LaTeX comments of the form ` + "`" + `% key: value` + "`" + ` at the top
of the file. Blank lines inside the header are allowed; the header ends at
the first line that is not a comment. Keys are case-insensitive and the
last occurrence of a repeated key wins.

## Rules

1. **File names** end with ` + "`" + `.tex` + "`" + ` and use UTF-8.
2. **Dates** use the ` + "`" + `YYYY-MM-DD` + "`" + ` format. Anything else is treated as
   undated; undated notes sort before dated ones within a course.
3. **Tags** are comma-separated; surrounding whitespace is trimmed and
   empty entries are dropped.
4. **Body content** is standard LaTeX. It is converted to Markdown with
   pandoc, so stick to constructs pandoc understands; inline and display
   math survive the conversion and render with KaTeX.
5. **Images** live in a sibling ` + "`" + `images/` + "`" + ` directory and other supporting
   files in a sibling ` + "`" + `assets/` + "`" + ` directory. Both are copied next to the
   published page, so reference them with relative paths
   (` + "`" + `images/figure.png` + "`" + `).
6. **Topic and course** directory names should use underscores instead of
   spaces (` + "`" + `multivariable_calculus` + "`" + `); the site shows them with spaces.

## Example

` + "```" + `latex
% title: Limits and Continuity
% date: 2024-03-01
% tags: calculus, limits

\section{Limits}

The limit $\lim_{x \to a} f(x) = L$ means...

\includegraphics{images/epsilon-delta.png}
` + "```" + `
`
