package country

import "strings"

// Unknown 空国家输入的归一化结果
const Unknown = "Unknown"

// DefaultCurrency 未识别国家的默认币种
const DefaultCurrency = "AED"

// 规范国家代码
const (
	UAE       = "UAE"
	Oman      = "Oman"
	KSA       = "KSA"
	Bahrain   = "Bahrain"
	India     = "India"
	Kuwait    = "Kuwait"
	Qatar     = "Qatar"
	Pakistan  = "Pakistan"
	Jordan    = "Jordan"
	USA       = "USA"
	UK        = "UK"
	Canada    = "Canada"
	Australia = "Australia"
)

// entry 国家表中的一行：规范代码、默认币种与别名
type entry struct {
	Code     string
	Currency string
	Aliases  []string
}

// table 国家归一化表，只允许追加行
var table = []entry{
	{Code: UAE, Currency: "AED", Aliases: []string{"uae", "ae", "are", "united arab emirates", "emirates", "u.a.e", "u.a.e.", "dubai", "abu dhabi", "sharjah"}},
	{Code: Oman, Currency: "OMR", Aliases: []string{"oman", "om", "omn", "sultanate of oman", "muscat"}},
	{Code: KSA, Currency: "SAR", Aliases: []string{"ksa", "sa", "sau", "saudi arabia", "saudi", "kingdom of saudi arabia", "k.s.a", "riyadh", "jeddah"}},
	{Code: Bahrain, Currency: "BHD", Aliases: []string{"bahrain", "bh", "bhr", "kingdom of bahrain", "manama"}},
	{Code: India, Currency: "INR", Aliases: []string{"india", "in", "ind", "bharat"}},
	{Code: Kuwait, Currency: "KWD", Aliases: []string{"kuwait", "kw", "kwt", "state of kuwait"}},
	{Code: Qatar, Currency: "QAR", Aliases: []string{"qatar", "qa", "qat", "state of qatar", "doha"}},
	{Code: Pakistan, Currency: "PKR", Aliases: []string{"pakistan", "pk", "pak"}},
	{Code: Jordan, Currency: "JOD", Aliases: []string{"jordan", "jo", "jor", "hashemite kingdom of jordan", "amman"}},
	{Code: USA, Currency: "USD", Aliases: []string{"usa", "us", "u.s.", "u.s.a", "u.s.a.", "united states", "united states of america", "america"}},
	{Code: UK, Currency: "GBP", Aliases: []string{"uk", "gb", "gbr", "u.k.", "united kingdom", "great britain", "britain", "england"}},
	{Code: Canada, Currency: "CAD", Aliases: []string{"canada", "ca", "can"}},
	{Code: Australia, Currency: "AUD", Aliases: []string{"australia", "au", "aus"}},
}

var (
	aliasIndex    = map[string]string{}
	currencyIndex = map[string]string{}
	codes         []string
)

func init() {
	for _, row := range table {
		codes = append(codes, row.Code)
		currencyIndex[row.Code] = row.Currency
		aliasIndex[strings.ToLower(row.Code)] = row.Code
		for _, alias := range row.Aliases {
			aliasIndex[alias] = row.Code
		}
	}
}

// Normalize 将任意国家字符串归一化为规范代码
// 未识别的非空输入原样透传（去除首尾空白），空输入返回 Unknown。
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unknown
	}
	key := strings.Join(strings.Fields(strings.ToLower(trimmed)), " ")
	if code, ok := aliasIndex[key]; ok {
		return code
	}
	return trimmed
}

// IsKnown 判断是否可归一化到规范国家
func IsKnown(raw string) bool {
	_, ok := currencyIndex[Normalize(raw)]
	return ok
}

// Currency 返回国家默认币种，未识别时返回 AED
func Currency(raw string) string {
	if currency, ok := currencyIndex[Normalize(raw)]; ok {
		return currency
	}
	return DefaultCurrency
}

// Codes 按表顺序返回全部规范国家代码
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}
