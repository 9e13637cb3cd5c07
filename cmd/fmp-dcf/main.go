// =============================================================================
// FMP-DCF COMMAND LINE
// =============================================================================
// Query the Financial Modeling Prep custom DCF endpoint, archive the
// results, and slice saved archives with column projection, unique value
// listing, and pivot tables.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/LeeLupton/fmp-dcf/client"
	"github.com/LeeLupton/fmp-dcf/engine"
	"github.com/LeeLupton/fmp-dcf/export"
	"github.com/LeeLupton/fmp-dcf/params"
	"github.com/LeeLupton/fmp-dcf/render"
)

var (
	app = kingpin.New("fmp-dcf",
		"Query, pivot and export Financial Modeling Prep custom DCF valuations.")
	verbose = app.Flag("verbose", "Enable verbose logging.").Short('v').Bool()

	queryCmd = app.Command("query", "Fetch a custom DCF valuation and display it.")
	queryAPIKey = queryCmd.Flag("apikey",
		"FMP API key. Defaults to FMP_API_KEY from the environment or a .env file.").
		Envar("FMP_API_KEY").String()
	queryExportDir = queryCmd.Flag("export",
		"Write a JSON archive of the result under this directory.").String()
	queryXLSX = queryCmd.Flag("xlsx",
		"Write the result table to this XLSX file.").String()
	queryFields = registerParamFlags(queryCmd)

	showCmd  = app.Command("show", "Display a previously exported archive.")
	showFile = showCmd.Arg("archive", "Path to a JSON archive.").
			Required().ExistingFile()

	columnsCmd  = app.Command("columns", "Project an archive onto a subset of its columns.")
	columnsFile = columnsCmd.Arg("archive", "Path to a JSON archive.").
			Required().ExistingFile()
	columnsFields = columnsCmd.Arg("field", "Fields to keep, in display order.").
			Required().Strings()
	columnsXLSX = columnsCmd.Flag("xlsx",
		"Write the projected table to this XLSX file.").String()

	uniquesCmd  = app.Command("uniques", "List the distinct non-null values of a field.")
	uniquesFile = uniquesCmd.Arg("archive", "Path to a JSON archive.").
			Required().ExistingFile()
	uniquesField = uniquesCmd.Arg("field", "Field to enumerate.").Required().String()

	pivotCmd  = app.Command("pivot", "Filter and pivot an archive into a cross tabulation.")
	pivotFile = pivotCmd.Arg("archive", "Path to a JSON archive.").
			Required().ExistingFile()
	pivotIndex = pivotCmd.Flag("index",
		"Field whose distinct values become rows.").Required().String()
	pivotColumns = pivotCmd.Flag("columns",
		"Field whose distinct values become columns.").Required().String()
	pivotValues = pivotCmd.Flag("values",
		"Field to aggregate into the cells.").Required().String()
	pivotAgg = pivotCmd.Flag("agg", "Aggregation function.").
			Default("sum").Enum(engine.AggFuncs...)
	pivotFilters = pivotCmd.Flag("filter",
		"Row filter as field=value[,value...]. Repeatable. "+
			"\"field=\" selects nothing; a bare \"field\" leaves the filter inert.").
		Strings()
	pivotExportDir = pivotCmd.Flag("export",
		"Write a JSON archive of the pivoted table under this directory.").String()
	pivotXLSX = pivotCmd.Flag("xlsx",
		"Write the pivoted table to this XLSX file.").String()
)

// registerParamFlags adds one flag per catalog parameter so the query
// command mirrors the endpoint's form exactly.
func registerParamFlags(cmd *kingpin.CmdClause) map[string]*string {
	flags := make(map[string]*string)
	for _, f := range params.Catalog() {
		flags[f.Name] = cmd.Flag(f.Name, f.Label).String()
	}
	return flags
}

func main() {
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logrus.SetOutput(os.Stderr)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	store := engine.NewStore()

	var err error
	switch command {
	case queryCmd.FullCommand():
		err = runQuery(store)
	case showCmd.FullCommand():
		err = runShow(store)
	case columnsCmd.FullCommand():
		err = runColumns(store)
	case uniquesCmd.FullCommand():
		err = runUniques()
	case pivotCmd.FullCommand():
		err = runPivot(store)
	}
	kingpin.FatalIfError(err, "fmp-dcf")
}

func runQuery(store *engine.Store) error {
	raw := map[string]string{}
	for name, value := range queryFields {
		if *value != "" {
			raw[name] = *value
		}
	}
	queryParams, err := params.Build(raw)
	if err != nil {
		return err
	}

	key := *queryAPIKey
	if key == "" {
		key = client.LoadAPIKey()
	}

	table, err := client.New(client.Config{APIKey: key}).Fetch(queryParams)
	if err != nil {
		// The failed query leaves any previously loaded table alone.
		return err
	}
	store.Replace(table)

	return present(store, queryParams, *queryExportDir, *queryXLSX)
}

func runShow(store *engine.Store) error {
	archiveParams, table, err := loadArchive(*showFile)
	if err != nil {
		return err
	}
	store.Replace(table)

	return present(store, archiveParams, "", "")
}

func runColumns(store *engine.Store) error {
	archiveParams, table, err := loadArchive(*columnsFile)
	if err != nil {
		return err
	}

	projected, err := engine.Project(table, *columnsFields)
	if err != nil {
		return err
	}
	store.Replace(projected)

	return present(store, archiveParams, "", *columnsXLSX)
}

func runUniques() error {
	_, table, err := loadArchive(*uniquesFile)
	if err != nil {
		return err
	}

	values, err := engine.UniqueValues(table, *uniquesField)
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}

func runPivot(store *engine.Store) error {
	archiveParams, table, err := loadArchive(*pivotFile)
	if err != nil {
		return err
	}

	filtered, err := engine.ApplyFilters(table, parseFilterFlags(*pivotFilters))
	if err != nil {
		return err
	}

	pivoted, err := engine.Pivot(filtered, engine.PivotSpec{
		Index:       *pivotIndex,
		Columns:     *pivotColumns,
		Values:      *pivotValues,
		Aggregation: *pivotAgg,
	})
	if err != nil {
		return err
	}
	store.Replace(pivoted)

	return present(store, archiveParams, *pivotExportDir, *pivotXLSX)
}

// present renders the store's current table and runs any requested
// exports.
func present(store *engine.Store, p *ordereddict.Dict,
	exportDir, xlsxPath string) error {
	table, ok := store.Current()
	if !ok {
		return fmt.Errorf("no table loaded")
	}

	render.Table(os.Stdout, table)

	if exportDir != "" {
		path, err := export.WriteFile(exportDir, p, table)
		if err != nil {
			return err
		}
		logrus.Infof("Exported %d rows to %s", table.RowCount(), path)
	}
	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, table); err != nil {
			return err
		}
		logrus.Infof("Wrote %s", xlsxPath)
	}
	return nil
}

func loadArchive(path string) (*ordereddict.Dict, *engine.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading archive: %w", err)
	}
	return export.ReadArchive(data)
}

// parseFilterFlags turns --filter specs into engine filters. Three shapes:
// "field" with no '=' is inert, "field=" selects nothing, and
// "field=a,b" allows exactly those values.
func parseFilterFlags(specs []string) []engine.Filter {
	filters := make([]engine.Filter, 0, len(specs))
	for _, spec := range specs {
		field, list, found := strings.Cut(spec, "=")
		switch {
		case !found:
			filters = append(filters, engine.Filter{
				Field: field, Selection: engine.Unselected()})
		case list == "":
			filters = append(filters, engine.Filter{
				Field: field, Selection: engine.NewSelection()})
		default:
			filters = append(filters, engine.Filter{
				Field:     field,
				Selection: engine.NewSelection(strings.Split(list, ",")...)})
		}
	}
	return filters
}
