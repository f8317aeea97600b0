package table

import (
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Build creates a table from series of equal length
func Build(name string, series ...dataframe.Series) *Table {
	return New(name, dataframe.NewDataFrame(series...))
}

// Strings creates a string column; nil marks a missing cell
func Strings(name string, vals ...interface{}) dataframe.Series {
	return dataframe.NewSeriesString(name, nil, vals...)
}

// Floats creates a float64 column; nil marks a missing cell
func Floats(name string, vals ...interface{}) dataframe.Series {
	return dataframe.NewSeriesFloat64(name, nil, vals...)
}

// Ints creates an int64 column; nil marks a missing cell
func Ints(name string, vals ...interface{}) dataframe.Series {
	return dataframe.NewSeriesInt64(name, nil, vals...)
}

// Times creates a time column; nil marks a missing cell
func Times(name string, vals ...interface{}) dataframe.Series {
	return dataframe.NewSeriesTime(name, nil, vals...)
}
