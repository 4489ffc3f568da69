package analyzer

var samples = map[Language]string{
	C: `#include <stdio.h>

int main() {
    int a = 10;
    int b = 20;
    int sum = a + b;
    if (sum > 25) {
        printf("big");
    }
    while (a < b) {
        a = a + 1;
    }
    printf("%d", sum);
    return 0;
}
`,
	CPP: `#include <iostream>
using namespace std;

class Counter {
    int count;
};

int main() {
    int x = 5;
    double y = 2.5;
    x = x * 2;
    cout << x;
    if (x >= 10) x = 0;
    print(x, y);
    return 0;
}
`,
	Java: `public class Main {
    public static void main(String[] args) {
        int total = 0;
        int limit = 3;
        String name = "tacgen";
        total = total + limit;
        while (total < 100) {
            total = total * 2;
        }
        System.out.println(name);
    }
}
`,
}

// Sample returns a short example program for lang.
func Sample(lang Language) string { return samples[lang] }
