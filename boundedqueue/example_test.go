package boundedqueue_test

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-prodcons/boundedqueue"
)

func ExampleQueue() {
	q := boundedqueue.New[int](2)
	fmt.Println(q.Push(1), q.Push(2))
	fmt.Println(errors.Is(q.Push(3), boundedqueue.ErrOverflow))
	v, err := q.PopFront()
	fmt.Println(v, err, q.Len())
	//output:
	//<nil> <nil>
	//true
	//1 <nil> 1
}
