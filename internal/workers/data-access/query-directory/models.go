package querydirectory

type Input struct {
	QueryType  string                 `json:"queryType"`
	Parameters map[string]interface{} `json:"parameters"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
