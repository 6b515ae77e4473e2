package cli

const rootLong = `cerealdex keeps a catalog of cereals in SQLite or PostgreSQL and filters
it with typed column constraints. Contradicting constraints such as
"calories>110 AND calories<100" are rejected before any row is read.

FILTER SYNTAX
  column<op>value            op: =  !=  <  <=  >  >=
  column:opname:value        opname: eq noteq less lesseq greater greatereq
  terms joined by AND, "&" or ","; quote values with spaces: name="Corn Flakes"

EXAMPLES
  cerealdex init --csv cereals.csv --user admin --password secret
  cerealdex filter 'calories>=100 AND mfr!=Q'
  cerealdex check 'calories>110 AND calories<100'
  cerealdex serve --config cerealdex.yaml`
