package ui

// helpMarkdown is rendered through glamour into the overlay pane.
const helpMarkdown = `# gv help

## Navigation

| Key | Action |
|---|---|
| j / down | move cursor down |
| k / up | move cursor up |
| ctrl+d / ctrl+u | half page down / up |
| g / home | first row |
| G / end | last row |
| wheel / scrollbar drag | scroll without moving the cursor |

## Tree

| Key | Action |
|---|---|
| space | fold / unfold the subtree under the cursor |
| E | expand all |
| C | collapse all |

## Other

| Key | Action |
|---|---|
| enter | task detail |
| y | copy task ID to clipboard |
| r | reload data source |
| ? | this help |
| q / ctrl+c | quit |

Timeline bars are colored by status; ◆ marks milestones. In resource mode
rows show assignment periods instead of task bars.
`
