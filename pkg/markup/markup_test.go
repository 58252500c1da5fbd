package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<div id="wrap"><!-- note --><p class="midashi_word">あく・あける</p>` +
	`<span class="accented_word"><span class="mola_-3"><span class="inner"><span class="char">あ</span></span></span>` +
	`<span class="accent_top mola_-2"><span class="inner"><span class="char">く</span></span></span></span></div>`

func TestParseDropsCommentsAndKeepsText(t *testing.T) {
	root, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	wrap, ok := root.Find(WithID("wrap"))
	require.True(t, ok)
	assert.Equal(t, "div", wrap.Tag)
	assert.Equal(t, "あく・あけるあく", wrap.Text())
	for _, c := range wrap.Children {
		_, isText := c.(*TextNode)
		_, isElem := c.(*ElementNode)
		assert.True(t, isText || isElem)
	}
}

func TestFindAllIsDocumentOrdered(t *testing.T) {
	root, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	chars := root.FindAll(ClassContains("char"))
	require.Len(t, chars, 2)
	assert.Equal(t, "あ", chars[0].Text())
	assert.Equal(t, "く", chars[1].Text())

	morae := root.FindAll(ClassContains("mola_"))
	require.Len(t, morae, 2)
	assert.False(t, morae[0].HasClass("accent_top"))
	assert.True(t, morae[1].HasClass("accent_top"))
}

func TestElementsSkipsText(t *testing.T) {
	el := &ElementNode{Tag: "p", Children: []Node{
		&TextNode{Content: "a"},
		&ElementNode{Tag: "b", Children: []Node{&TextNode{Content: "b"}}},
		&TextNode{Content: "c"},
	}}
	assert.Len(t, el.Elements(), 1)
	assert.Equal(t, "abc", el.Text())
	assert.False(t, el.HasClass(""))
}

func TestParseFragmentRow(t *testing.T) {
	root, err := ParseFragment(`<tr id="word_1"><td class="midashi">x</td></tr>`)
	require.NoError(t, err)
	rows := root.Elements()
	require.Len(t, rows, 1)
	assert.Equal(t, "tr", rows[0].Tag)
	assert.Equal(t, "word_1", rows[0].ID())
	_, ok := rows[0].Find(ClassContains("midashi"))
	assert.True(t, ok)
}

func TestElementRejectsNil(t *testing.T) {
	_, err := Element(nil)
	assert.Error(t, err)
}
