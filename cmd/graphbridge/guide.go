package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(76)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)
)

func renderPanel(title, body string) string {
	return panelStyle.Render(panelTitleStyle.Render(title) + "\n" + body)
}

func guideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Explain the export document formats and the import workflow",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(renderPanel("Structured exports", `A structured export is a JSON object with "nodes" and "relationships" lists.
Each node carries an "id", optional "labels", and a "properties" object. Each
relationship carries a "type" and the "startNodeId"/"endNodeId" of nodes in the
same document. Import runs in two phases: every node first, then every
relationship, resolving endpoints through a marker property stamped on each
imported node.`))

			fmt.Println(renderPanel("Script exports", `An export with a "cypherScript" field replays as individual statements split on
top-level semicolons. A failing statement is reported and skipped; the rest of
the script still runs.`))

			fmt.Println(renderPanel("Tensor exports", `An export with "nodeFeatures" and "edgeIndices" describes a heterogeneous
dataset instead of store entities. Feature matrices are keyed by node type and
edge index matrices by "srcType,relType,dstType" triplets. Use the tensor
command to validate shapes and describe the dataset.`))

			fmt.Println(renderPanel("Serving to agents", `The serve command exposes the store to MCP clients over stdio. Agents get
schema introspection, node sampling, and a query runner that only accepts
read-only Cypher and caps uncapped queries at 25 rows.`))
		},
	}
}

func queriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "Show example Cypher queries for an imported graph",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(renderPanel("Inspecting the graph", `MATCH (n) RETURN count(n)
MATCH ()-[r]->() RETURN type(r), count(r) ORDER BY count(r) DESC
CALL db.labels() YIELD label RETURN label`))

			fmt.Println(renderPanel("Exploring neighborhoods", `MATCH (n {label: 'Alice'})-[r]->(m) RETURN type(r), m.label LIMIT 25
MATCH (n)-[:knows*1..2]->(m) WHERE n.label = 'Alice' RETURN DISTINCT m.label
MATCH p = shortestPath((a {label: 'Alice'})-[*..6]-(b {label: 'Bob'})) RETURN p`))

			fmt.Println(renderPanel("Aggregations", `MATCH (n) UNWIND labels(n) AS label RETURN label, count(*) ORDER BY count(*) DESC
MATCH (n)-[r]->() RETURN n.label, count(r) AS degree ORDER BY degree DESC LIMIT 10`))
		},
	}
}
