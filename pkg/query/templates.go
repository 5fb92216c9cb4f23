package query

// Templates are rendered with the helpers of funcMap:
//
//	id "city"              quoted, normalized identifier
//	col "c" "Population"   alias-qualified quoted column
//	int "expr"             dialect integer cast
//
// Table aliases are lower case and never quoted.

const listCountriesTmpl = `SELECT {{col "c" "Code"}}, {{col "c" "Name"}}, {{col "c" "Continent"}}, {{col "c" "Region"}},
       COALESCE({{col "c" "Population"}}, 0), COALESCE({{col "c" "Capital"}}, 0)
FROM {{id "country"}} c`

const listCitiesTmpl = `SELECT {{col "ci" "ID"}}, {{col "ci" "Name"}}, {{col "ci" "CountryCode"}}, {{col "ci" "District"}},
       COALESCE({{col "ci" "Population"}}, 0)
FROM {{id "city"}} ci`

const listCountryLanguagesTmpl = `SELECT {{col "cl" "CountryCode"}}, {{col "cl" "Language"}},
       CASE WHEN {{col "cl" "IsOfficial"}} = 'T' THEN 1 ELSE 0 END,
       {{col "cl" "Percentage"}}
FROM {{id "countrylanguage"}} cl`

// City populations are summed per country before the join so that a
// country's own population is counted once however many cities it has.
const groupTotalsTmpl = `SELECT {{.KeyExpr}} AS grp, {{.CodeExpr}} AS code,
       {{int (printf "SUM(COALESCE(%s, 0))" (col "c" "Population"))}} AS total,
       {{int "COALESCE(SUM(ci.pop), 0)"}} AS in_cities
FROM {{id "country"}} c
LEFT JOIN (
    SELECT {{col "x" "CountryCode"}} AS cc, SUM(COALESCE({{col "x" "Population"}}, 0)) AS pop
    FROM {{id "city"}} x
    GROUP BY {{col "x" "CountryCode"}}
) ci ON ci.cc = {{col "c" "Code"}}
GROUP BY {{.GroupBy}}`

// Percentages are scaled to hundredths of a percent so the weighted sum is
// exact integer arithmetic. The percentage is cast to DECIMAL before ROUND:
// PostgreSQL and MySQL round a double half to even, while a decimal rounds
// half away from zero in every supported database, as math.Round does.
const speakerTotalsTmpl = `SELECT {{col "cl" "Language"}},
       {{int (printf "SUM(%s * %s)" (int (printf "COALESCE(%s, 0)" (col "c" "Population"))) (int (printf "ROUND(CAST(%s AS DECIMAL(12,4)) * 100)" (col "cl" "Percentage"))))}} AS weighted,
       COUNT(*) AS countries
FROM {{id "countrylanguage"}} cl
JOIN {{id "country"}} c ON {{col "c" "Code"}} = {{col "cl" "CountryCode"}}
WHERE {{col "cl" "Language"}} IN ({{join .Params ", "}})
GROUP BY {{col "cl" "Language"}}`

const worldPopulationTmpl = `SELECT {{int (printf "COALESCE(SUM(COALESCE(%s, 0)), 0)" (col "c" "Population"))}}
FROM {{id "country"}} c`
