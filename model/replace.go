package model

import "fmt"

// ReplaceError reports a slice that cannot be placed at the given range.
type ReplaceError struct {
	Msg string
}

func (e *ReplaceError) Error() string { return "model: " + e.Msg }

func replace(from, to *ResolvedPos, slice Slice) (doc *Node, err error) {
	if slice.OpenStart > from.Depth() {
		return nil, &ReplaceError{Msg: "inserted content deeper than insertion position"}
	}
	if from.Depth()-slice.OpenStart != to.Depth()-slice.OpenEnd {
		return nil, &ReplaceError{Msg: "inconsistent open depths"}
	}
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*ReplaceError)
			if !ok {
				panic(r)
			}
			doc, err = nil, re
		}
	}()
	return replaceOuter(from, to, slice, 0), nil
}

func replaceOuter(from, to *ResolvedPos, slice Slice, depth int) *Node {
	index := from.Index(depth)
	node := from.Node(depth)
	switch {
	case index == to.Index(depth) && depth < from.Depth()-slice.OpenStart:
		inner := replaceOuter(from, to, slice, depth+1)
		return node.Copy(node.content.ReplaceChild(index, inner))
	case slice.Content.Size() == 0:
		return node.Copy(replaceTwoWay(from, to, depth))
	case slice.OpenStart == 0 && slice.OpenEnd == 0 && from.Depth() == depth && to.Depth() == depth:
		content := from.Parent().content
		return from.Parent().Copy(content.Cut(0, from.ParentOffset()).Append(slice.Content).Append(content.Cut(to.ParentOffset(), content.Size())))
	default:
		start, end := prepareSliceForReplace(slice, from)
		return node.Copy(replaceThreeWay(from, start, end, to, depth))
	}
}

func checkJoin(main, sub *Node) {
	if !sub.typ.CompatibleContent(main.typ) {
		panic(&ReplaceError{Msg: fmt.Sprintf("cannot join %s onto %s", sub.typ.Name, main.typ.Name)})
	}
}

func joinable(before, after *ResolvedPos, depth int) *Node {
	node := before.Node(depth)
	checkJoin(node, after.Node(depth))
	return node
}

func addNode(child *Node, target []*Node) []*Node {
	if last := len(target) - 1; last >= 0 && child.IsText() && child.SameMarkup(target[last]) {
		target[last] = child.WithText(target[last].text + child.text)
		return target
	}
	return append(target, child)
}

func addRange(start, end *ResolvedPos, depth int, target []*Node) []*Node {
	ref := end
	if ref == nil {
		ref = start
	}
	node := ref.Node(depth)
	startIndex, endIndex := 0, node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth() > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			target = addNode(start.NodeAfter(), target)
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		target = addNode(node.Child(i), target)
	}
	if end != nil && end.Depth() == depth && end.TextOffset() > 0 {
		target = addNode(end.NodeBefore(), target)
	}
	return target
}

func replaceThreeWay(from, start, end, to *ResolvedPos, depth int) Fragment {
	var openStart, openEnd *Node
	if from.Depth() > depth {
		openStart = joinable(from, start, depth+1)
	}
	if to.Depth() > depth {
		openEnd = joinable(end, to, depth+1)
	}

	var content []*Node
	content = addRange(nil, from, depth, content)
	if openStart != nil && openEnd != nil && start.Index(depth) == end.Index(depth) {
		checkJoin(openStart, openEnd)
		content = addNode(openStart.Copy(replaceThreeWay(from, start, end, to, depth+1)), content)
	} else {
		if openStart != nil {
			content = addNode(openStart.Copy(replaceTwoWay(from, start, depth+1)), content)
		}
		content = addRange(start, end, depth, content)
		if openEnd != nil {
			content = addNode(openEnd.Copy(replaceTwoWay(end, to, depth+1)), content)
		}
	}
	content = addRange(to, nil, depth, content)
	return FragmentFrom(content...)
}

func replaceTwoWay(from, to *ResolvedPos, depth int) Fragment {
	var content []*Node
	content = addRange(nil, from, depth, content)
	if from.Depth() > depth {
		t := joinable(from, to, depth+1)
		content = addNode(t.Copy(replaceTwoWay(from, to, depth+1)), content)
	}
	content = addRange(to, nil, depth, content)
	return FragmentFrom(content...)
}

func prepareSliceForReplace(slice Slice, along *ResolvedPos) (start, end *ResolvedPos) {
	extra := along.Depth() - slice.OpenStart
	parent := along.Node(extra)
	node := parent.Copy(slice.Content)
	for i := extra - 1; i >= 0; i-- {
		node = along.Node(i).Copy(FragmentFrom(node))
	}
	return node.Resolve(slice.OpenStart + extra), node.Resolve(node.content.size - slice.OpenEnd - extra)
}
