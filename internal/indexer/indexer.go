package indexer

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// 标题中出现的词项附加权重
const titleBoost = 10

// Posting 单个倒排词条（词干 + 权重）
type Posting struct {
	Term   string
	Weight int
}

// Stem 分词、小写、去停用词、取词干，返回去重后的有序词项集合
func Stem(text string) []string {
	tokens := tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if _, ok := stopWords[tok]; ok {
			continue
		}
		term := snowballeng.Stem(tok, false)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// BuildPostings 由标题与正文明文计算词项权重
// 权重 = 正文词频 + 标题词频 * titleBoost
func BuildPostings(title, body string) []Posting {
	weights := make(map[string]int)
	order := make([]string, 0)

	bump := func(text string, factor int) {
		for _, tok := range tokenize(text) {
			tok = strings.ToLower(tok)
			if _, ok := stopWords[tok]; ok {
				continue
			}
			term := snowballeng.Stem(tok, false)
			if term == "" {
				continue
			}
			if _, ok := weights[term]; !ok {
				order = append(order, term)
			}
			weights[term] += factor
		}
	}
	bump(body, 1)
	bump(title, titleBoost)

	postings := make([]Posting, 0, len(order))
	for _, term := range order {
		postings = append(postings, Posting{Term: term, Weight: weights[term]})
	}
	return postings
}

// HashTerm 加密模式下词项的单向摘要
func HashTerm(term string) string {
	sum := md5.Sum([]byte(term))
	return hex.EncodeToString(sum[:])
}

// HashTerms 批量摘要
func HashTerms(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = HashTerm(t)
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// 常见停用词，索引与查询两侧一致过滤
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "have": {}, "i": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "no": {},
	"not": {}, "of": {}, "on": {}, "or": {}, "such": {}, "that": {},
	"the": {}, "their": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "will": {}, "with": {},
}
