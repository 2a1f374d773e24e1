package sql

// sqlKeywords are identifiers never treated as column references during
// validation or alias detection.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"not": true, "in": true, "is": true, "null": true, "like": true,
	"ilike": true, "between": true, "exists": true, "case": true,
	"when": true, "then": true, "else": true, "end": true, "as": true,
	"on": true, "join": true, "inner": true, "left": true, "right": true,
	"full": true, "outer": true, "cross": true, "using": true,
	"group": true, "by": true, "order": true, "having": true,
	"limit": true, "offset": true, "distinct": true, "all": true,
	"asc": true, "desc": true, "union": true, "intersect": true,
	"except": true, "insert": true, "into": true, "values": true,
	"update": true, "set": true, "delete": true, "with": true,
	"over": true, "partition": true, "rows": true, "range": true,
	"current": true, "row": true, "preceding": true, "following": true,
	"unbounded": true, "true": true, "false": true, "interval": true,
	"extract": true, "epoch": true, "day": true, "month": true,
	"year": true, "week": true, "quarter": true, "hour": true,
	"minute": true, "second": true,
}

// sqlFunctions are call-position identifiers; an identifier immediately
// followed by an open paren is treated as a function, but these are also
// excluded when they appear bare.
var sqlFunctions = map[string]bool{
	"sum": true, "avg": true, "count": true, "max": true, "min": true,
	"round": true, "coalesce": true, "cast": true, "nullif": true,
	"abs": true, "floor": true, "ceil": true, "ceiling": true,
	"lower": true, "upper": true, "trim": true, "length": true,
	"substring": true, "concat": true, "date_trunc": true,
	"to_char": true, "to_date": true, "now": true, "stddev": true,
	"stddev_pop": true, "stddev_samp": true, "var_pop": true,
	"var_samp": true, "variance": true, "corr": true,
	"percentile_cont": true, "percentile_disc": true, "mode": true,
	"row_number": true, "rank": true, "dense_rank": true, "lag": true,
	"lead": true, "first_value": true, "last_value": true, "ntile": true,
}

// isBareKeyword reports whether ident is SQL vocabulary rather than a
// possible column reference.
func isBareKeyword(ident string) bool {
	return sqlKeywords[ident] || sqlFunctions[ident]
}
