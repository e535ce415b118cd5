package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rowantrollope/handycmd/internal/statement"
)

var statementHelp = map[statement.Kind]string{
	statement.CreateFile:   `CREATE FILE path;                          Create an empty file`,
	statement.CreateFolder: `CREATE FOLDER path;                        Create a folder and its parents`,
	statement.DeleteFile:   `DELETE FILE path;                          Delete a file`,
	statement.DeleteFolder: `DELETE FOLDER path;                        Delete an empty folder`,
	statement.DeleteForce:  `DELETE path FORCE;                         Delete a file or folder tree`,
	statement.Write:        `WRITE TO path THIS CONTENT: "text";        Replace a file's content`,
	statement.Append:       `APPEND TO path THIS CONTENT: "text";       Append to a file`,
	statement.Rename:       `RENAME old TO new;                         Rename or move a path`,
}

var keywordKinds = map[string][]statement.Kind{
	"CREATE": {statement.CreateFile, statement.CreateFolder},
	"DELETE": {statement.DeleteFile, statement.DeleteFolder, statement.DeleteForce},
	"FORCE":  {statement.DeleteForce},
	"WRITE":  {statement.Write},
	"APPEND": {statement.Append},
	"RENAME": {statement.Rename},
}

// WriteHelp prints the statement grammar. A non-empty topic narrows the output to
// the statements starting with that keyword.
func WriteHelp(w io.Writer, topic string) {
	if topic != "" {
		kinds, ok := keywordKinds[strings.ToUpper(topic)]
		if !ok {
			fmt.Fprintf(w, "No help available for '%s'\n", topic)
			return
		}
		for _, k := range kinds {
			fmt.Fprintf(w, "  %s\n", statementHelp[k])
		}
		return
	}

	fmt.Fprintln(w, "handycmd - run filesystem statements written in a text file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Statements:")
	for _, k := range statement.Kinds() {
		fmt.Fprintf(w, "  %s\n", statementHelp[k])
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Keywords are upper case and every statement ends with ';'.")
	fmt.Fprintln(w, "Anything else in the document is ignored.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  help [keyword]                             Show this help")
	fmt.Fprintln(w, "  clear                                      Clear the terminal")
	fmt.Fprintln(w, "  exit / quit                                Exit the REPL")
}
